// Package main is the entry point for the aide server.
package main

import (
	"github.com/aide-dev/aide/cmd/aide/app"

	// Register the LLM vendors.
	_ "github.com/aide-dev/aide/pkg/llm/gemini"
	_ "github.com/aide-dev/aide/pkg/llm/openai"
)

func main() {
	app.NewApp().Run()
}
