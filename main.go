package main

import "github.com/IshwariGadewar/SmartBasket/cmd"

func main() {
	cmd.Execute()
}
