// provision-cli is the command-line interface for the provision library.
//
// It manages provisioning profiles on a signing-authority portal: listing,
// creating, repairing, deleting and downloading them. Common operations:
//   - provision list --kind development
//   - provision create --bundle-id com.example.app --kind appstore
//   - provision repair "com.example.app AppStore"
//
// Portal credentials come from a provision.yaml file or PROVISION_*
// environment variables.
package main

import (
	"os"

	"github.com/signbay/provision/internal/cli"
)

func main() {
	// Execute prints its own redacted error message.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
