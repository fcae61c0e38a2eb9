// Command chatbot is a terminal client for a streaming completion endpoint.
package main

import "github.com/diogo/chatbot/internal/commands"

func main() {
	commands.Execute()
}
