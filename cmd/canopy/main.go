// Command canopy runs the canopy demo scene, renders it headlessly to PNG
// files, or inspects engine configuration files.
package main

import (
	"context"

	"github.com/scott-cotton/cli"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}
