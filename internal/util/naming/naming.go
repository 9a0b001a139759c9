package naming

import "fmt"

// Naming functions for cloud resources. Every resource created for an
// application is prefixed with the application name.

func KeyPair(app string) string {
	return fmt.Sprintf("%s-key", app)
}

// KeyFile is the local file the key pair's private material is written to.
func KeyFile(app string) string {
	return KeyPair(app) + ".pem"
}

func VPC(app string) string {
	return fmt.Sprintf("%s-vpc", app)
}

// PublicSubnet names the public subnet of the index-th zone, counting from 1.
func PublicSubnet(app string, index int) string {
	return fmt.Sprintf("%s Public Subnet-%d", app, index)
}

// PrivateSubnet names the private subnet of the index-th zone, counting from 1.
func PrivateSubnet(app string, index int) string {
	return fmt.Sprintf("%s Private Subnet-%d", app, index)
}

func SecurityGroup(app string) string {
	return fmt.Sprintf("%s-security-group", app)
}

func ImageInstance(app string) string {
	return fmt.Sprintf("%s-image-creation-instance", app)
}

// Image names the machine image of one run. Image names must be unique
// per region, so the run ID is part of it.
func Image(app, runID string) string {
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return fmt.Sprintf("%s-image-%s", app, runID)
}
