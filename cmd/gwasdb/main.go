// cmd/gwasdb/main.go
package main

import (
	"gwasdb/internal/app"
	"gwasdb/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
