package main

import "github.com/hope-pey/chat-bot/cmd"

func main() {
	cmd.Execute()
}
