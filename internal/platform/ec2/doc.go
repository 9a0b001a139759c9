// Package ec2 creates the AWS resources an application image is built in:
// key pair, VPC, subnets, security group, instance and machine image.
//
// Every create call carries the run's tags and honours the client's
// dry-run flag. In dry-run mode EC2 only checks permissions; the
// DryRunOperation answer is treated as success and placeholder IDs are
// returned so later calls can still be checked.
package ec2
