package main

import "flatrate/internal/app/server"

func main() {
	server.Run()
}
