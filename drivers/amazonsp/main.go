package main

import (
	tapamazonsp "github.com/singer-io/tap-amazon-sp"
	driver "github.com/singer-io/tap-amazon-sp/drivers/amazonsp/internal"
)

func main() {
	tapamazonsp.RegisterDriver(driver.New())
}
