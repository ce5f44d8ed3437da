// The module binary served to viam-server.
package main

import (
	"go.viam.com/rdk/module"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/services/generic"

	"gifbox"
)

func main() {
	module.ModularMain(resource.APIModel{API: generic.API, Model: gifbox.Model})
}
