package main

import "github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/cli"

func main() {
	cli.Execute()
}
