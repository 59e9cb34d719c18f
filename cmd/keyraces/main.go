package main

import "keyraces-backend/cmd/keyraces/cmd"

func main() {
	cmd.Execute()
}
