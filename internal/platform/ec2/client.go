package ec2

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"

	"github.com/acs-assignment/appboot/internal/util/tags"
)

// DryRunID is returned in place of a resource ID in dry-run mode.
const DryRunID = "dry-run"

// API is the subset of *ec2.Client used here.
type API interface {
	CreateKeyPair(ctx context.Context, in *ec2.CreateKeyPairInput, optFns ...func(*ec2.Options)) (*ec2.CreateKeyPairOutput, error)
	CreateVpc(ctx context.Context, in *ec2.CreateVpcInput, optFns ...func(*ec2.Options)) (*ec2.CreateVpcOutput, error)
	DescribeAvailabilityZones(ctx context.Context, in *ec2.DescribeAvailabilityZonesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAvailabilityZonesOutput, error)
	CreateSubnet(ctx context.Context, in *ec2.CreateSubnetInput, optFns ...func(*ec2.Options)) (*ec2.CreateSubnetOutput, error)
	CreateSecurityGroup(ctx context.Context, in *ec2.CreateSecurityGroupInput, optFns ...func(*ec2.Options)) (*ec2.CreateSecurityGroupOutput, error)
	AuthorizeSecurityGroupIngress(ctx context.Context, in *ec2.AuthorizeSecurityGroupIngressInput, optFns ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupIngressOutput, error)
	RunInstances(ctx context.Context, in *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error)
	DescribeInstances(ctx context.Context, in *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	CreateImage(ctx context.Context, in *ec2.CreateImageInput, optFns ...func(*ec2.Options)) (*ec2.CreateImageOutput, error)
	DescribeImages(ctx context.Context, in *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
	TerminateInstances(ctx context.Context, in *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
}

// Client creates tagged EC2 resources for one provisioning run.
type Client struct {
	api    API
	runID  string
	dryRun bool
}

// NewClient wraps api. All resources are tagged with runID.
func NewClient(api API, runID string, dryRun bool) *Client {
	return &Client{api: api, runID: runID, dryRun: dryRun}
}

// NewFromRegion loads the default AWS configuration for region.
func NewFromRegion(ctx context.Context, region, runID string, dryRun bool) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewClient(ec2.NewFromConfig(cfg), runID, dryRun), nil
}

// DryRun reports whether calls only check permissions.
func (c *Client) DryRun() bool {
	return c.dryRun
}

// KeyPair is a created key pair. Material is empty in dry-run mode.
type KeyPair struct {
	ID       string
	Name     string
	Material []byte
}

// CreateKeyPair creates an ED25519 key pair and returns its private key.
func (c *Client) CreateKeyPair(ctx context.Context, name string) (*KeyPair, error) {
	out, err := c.api.CreateKeyPair(ctx, &ec2.CreateKeyPairInput{
		KeyName:           aws.String(name),
		KeyType:           types.KeyTypeEd25519,
		KeyFormat:         types.KeyFormatPem,
		DryRun:            aws.Bool(c.dryRun),
		TagSpecifications: c.tagSpec(types.ResourceTypeKeyPair, ""),
	})
	if isDryRun(err) {
		return &KeyPair{ID: DryRunID, Name: name}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create key pair %s: %w", name, err)
	}
	return &KeyPair{
		ID:       aws.ToString(out.KeyPairId),
		Name:     aws.ToString(out.KeyName),
		Material: []byte(aws.ToString(out.KeyMaterial)),
	}, nil
}

// CreateVPC creates a VPC with the given CIDR block.
func (c *Client) CreateVPC(ctx context.Context, name, cidr string) (string, error) {
	out, err := c.api.CreateVpc(ctx, &ec2.CreateVpcInput{
		CidrBlock:         aws.String(cidr),
		DryRun:            aws.Bool(c.dryRun),
		TagSpecifications: c.tagSpec(types.ResourceTypeVpc, name),
	})
	if isDryRun(err) {
		return DryRunID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to create VPC %s: %w", name, err)
	}
	return aws.ToString(out.Vpc.VpcId), nil
}

// AvailabilityZones returns the names of the first n available zones of
// the region, in the order EC2 lists them.
func (c *Client) AvailabilityZones(ctx context.Context, n int) ([]string, error) {
	out, err := c.api.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{
		Filters: []types.Filter{{
			Name:   aws.String("state"),
			Values: []string{"available"},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list availability zones: %w", err)
	}

	var zones []string
	for _, z := range out.AvailabilityZones {
		if len(zones) == n {
			break
		}
		zones = append(zones, aws.ToString(z.ZoneName))
	}
	if len(zones) < n {
		return nil, fmt.Errorf("region has %d availability zones, need %d", len(zones), n)
	}
	return zones, nil
}

// CreateSubnet creates a subnet of vpcID in zone.
func (c *Client) CreateSubnet(ctx context.Context, vpcID, name, cidr, zone string) (string, error) {
	out, err := c.api.CreateSubnet(ctx, &ec2.CreateSubnetInput{
		VpcId:             aws.String(vpcID),
		CidrBlock:         aws.String(cidr),
		AvailabilityZone:  aws.String(zone),
		DryRun:            aws.Bool(c.dryRun),
		TagSpecifications: c.tagSpec(types.ResourceTypeSubnet, name),
	})
	if isDryRun(err) {
		return DryRunID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to create subnet %s: %w", name, err)
	}
	return aws.ToString(out.Subnet.SubnetId), nil
}

// CreateSecurityGroup creates a security group in vpcID.
func (c *Client) CreateSecurityGroup(ctx context.Context, vpcID, name, description string) (string, error) {
	out, err := c.api.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:         aws.String(name),
		Description:       aws.String(description),
		VpcId:             aws.String(vpcID),
		DryRun:            aws.Bool(c.dryRun),
		TagSpecifications: c.tagSpec(types.ResourceTypeSecurityGroup, name),
	})
	if isDryRun(err) {
		return DryRunID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to create security group %s: %w", name, err)
	}
	return aws.ToString(out.GroupId), nil
}

// IngressRule opens one TCP port to a CIDR range.
type IngressRule struct {
	Port        int32
	CIDR        string
	Description string
}

// AuthorizeIngress adds the rules to the security group.
func (c *Client) AuthorizeIngress(ctx context.Context, groupID string, rules []IngressRule) error {
	perms := make([]types.IpPermission, 0, len(rules))
	for _, r := range rules {
		perms = append(perms, types.IpPermission{
			IpProtocol: aws.String("tcp"),
			FromPort:   aws.Int32(r.Port),
			ToPort:     aws.Int32(r.Port),
			IpRanges: []types.IpRange{{
				CidrIp:      aws.String(r.CIDR),
				Description: aws.String(r.Description),
			}},
		})
	}

	_, err := c.api.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId:       aws.String(groupID),
		IpPermissions: perms,
		DryRun:        aws.Bool(c.dryRun),
	})
	if err != nil && !isDryRun(err) {
		return fmt.Errorf("failed to authorize ingress on %s: %w", groupID, err)
	}
	return nil
}

// InstanceSpec describes the instance to launch.
type InstanceSpec struct {
	Name            string
	ImageID         string
	InstanceType    string
	KeyName         string
	SubnetID        string
	SecurityGroupID string
	// UserData is the plain-text startup script; it is base64-encoded here.
	UserData string
}

// RunInstance launches one instance and returns its ID.
func (c *Client) RunInstance(ctx context.Context, spec InstanceSpec) (string, error) {
	out, err := c.api.RunInstances(ctx, &ec2.RunInstancesInput{
		ImageId:                           aws.String(spec.ImageID),
		InstanceType:                      types.InstanceType(spec.InstanceType),
		KeyName:                           aws.String(spec.KeyName),
		MinCount:                          aws.Int32(1),
		MaxCount:                          aws.Int32(1),
		SubnetId:                          aws.String(spec.SubnetID),
		SecurityGroupIds:                  []string{spec.SecurityGroupID},
		UserData:                          aws.String(base64.StdEncoding.EncodeToString([]byte(spec.UserData))),
		Monitoring:                        &types.RunInstancesMonitoringEnabled{Enabled: aws.Bool(false)},
		DisableApiTermination:             aws.Bool(false),
		EbsOptimized:                      aws.Bool(false),
		InstanceInitiatedShutdownBehavior: types.ShutdownBehaviorStop,
		DryRun:                            aws.Bool(c.dryRun),
		TagSpecifications:                 c.tagSpec(types.ResourceTypeInstance, spec.Name),
	})
	if isDryRun(err) {
		return DryRunID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to run instance %s: %w", spec.Name, err)
	}
	if len(out.Instances) == 0 {
		return "", errors.New("run instances returned no instance")
	}
	return aws.ToString(out.Instances[0].InstanceId), nil
}

// WaitInstanceRunning blocks until the instance is running or timeout
// elapses.
func (c *Client) WaitInstanceRunning(ctx context.Context, instanceID string, timeout time.Duration) error {
	if c.dryRun {
		return nil
	}
	waiter := ec2.NewInstanceRunningWaiter(c.api)
	if err := waiter.Wait(ctx, &ec2.DescribeInstancesInput{InstanceIds: []string{instanceID}}, timeout); err != nil {
		return fmt.Errorf("instance %s did not reach running: %w", instanceID, err)
	}
	return nil
}

// CreateImage creates a machine image from the instance.
func (c *Client) CreateImage(ctx context.Context, instanceID, name string) (string, error) {
	out, err := c.api.CreateImage(ctx, &ec2.CreateImageInput{
		InstanceId:        aws.String(instanceID),
		Name:              aws.String(name),
		DryRun:            aws.Bool(c.dryRun),
		TagSpecifications: c.tagSpec(types.ResourceTypeImage, name),
	})
	if isDryRun(err) {
		return DryRunID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to create image %s: %w", name, err)
	}
	return aws.ToString(out.ImageId), nil
}

// WaitImageAvailable blocks until the image is available or timeout
// elapses.
func (c *Client) WaitImageAvailable(ctx context.Context, imageID string, timeout time.Duration) error {
	if c.dryRun {
		return nil
	}
	waiter := ec2.NewImageAvailableWaiter(c.api)
	if err := waiter.Wait(ctx, &ec2.DescribeImagesInput{ImageIds: []string{imageID}}, timeout); err != nil {
		return fmt.Errorf("image %s did not become available: %w", imageID, err)
	}
	return nil
}

// TerminateInstance terminates the instance.
func (c *Client) TerminateInstance(ctx context.Context, instanceID string) error {
	_, err := c.api.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
		DryRun:      aws.Bool(c.dryRun),
	})
	if err != nil && !isDryRun(err) {
		return fmt.Errorf("failed to terminate instance %s: %w", instanceID, err)
	}
	return nil
}

func (c *Client) tagSpec(resource types.ResourceType, name string) []types.TagSpecification {
	built := tags.NewTagBuilder(c.runID).WithName(name).Build()
	out := make([]types.Tag, 0, len(built))
	for _, t := range built {
		out = append(out, types.Tag{Key: aws.String(t.Key), Value: aws.String(t.Value)})
	}
	return []types.TagSpecification{{ResourceType: resource, Tags: out}}
}

// isDryRun reports whether err is EC2's answer to a permitted dry run.
func isDryRun(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "DryRunOperation"
}
