// Package provisioning creates the cloud resources an application image is
// built in.
//
// A Pipeline runs Phases in order against a shared Context:
//
//   - validation: pre-flight checks of the plan and local files
//   - key pair: EC2 key pair, private key written locally with mode 0600
//   - network: VPC plus one public and one private subnet per zone
//   - security group: HTTP, HTTPS and SSH ingress
//   - instance: one instance booting the rendered bootstrap script
//   - image: machine image of the instance, which is then terminated
//
// State accumulates the IDs each phase creates. Phases report progress
// through an Observer.
package provisioning
