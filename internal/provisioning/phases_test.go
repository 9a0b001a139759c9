package provisioning

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acs-assignment/appboot/internal/config"
	"github.com/acs-assignment/appboot/internal/platform/ec2"
)

// fakeCloud records every call in order.
type fakeCloud struct {
	dryRun  bool
	failOn  string
	calls   []string
	subnets []string
	spec    ec2.InstanceSpec
	rules   []ec2.IngressRule
	waits   map[string]time.Duration
}

func (f *fakeCloud) call(name string) error {
	f.calls = append(f.calls, name)
	if f.failOn == name {
		return fmt.Errorf("%s: access denied", name)
	}
	return nil
}

func (f *fakeCloud) DryRun() bool { return f.dryRun }

func (f *fakeCloud) CreateKeyPair(_ context.Context, name string) (*ec2.KeyPair, error) {
	if err := f.call("CreateKeyPair"); err != nil {
		return nil, err
	}
	if f.dryRun {
		return &ec2.KeyPair{ID: ec2.DryRunID, Name: name}, nil
	}
	return &ec2.KeyPair{ID: "key-1", Name: name, Material: []byte("PRIVATE KEY")}, nil
}

func (f *fakeCloud) CreateVPC(_ context.Context, _, _ string) (string, error) {
	return "vpc-1", f.call("CreateVPC")
}

func (f *fakeCloud) AvailabilityZones(_ context.Context, n int) ([]string, error) {
	if err := f.call("AvailabilityZones"); err != nil {
		return nil, err
	}
	return []string{"eu-west-1a", "eu-west-1b", "eu-west-1c"}[:n], nil
}

func (f *fakeCloud) CreateSubnet(_ context.Context, _, name, cidr, zone string) (string, error) {
	f.subnets = append(f.subnets, fmt.Sprintf("%s %s %s", name, cidr, zone))
	return "subnet-" + cidr, f.call("CreateSubnet")
}

func (f *fakeCloud) CreateSecurityGroup(_ context.Context, _, _, _ string) (string, error) {
	return "sg-1", f.call("CreateSecurityGroup")
}

func (f *fakeCloud) AuthorizeIngress(_ context.Context, _ string, rules []ec2.IngressRule) error {
	f.rules = rules
	return f.call("AuthorizeIngress")
}

func (f *fakeCloud) RunInstance(_ context.Context, spec ec2.InstanceSpec) (string, error) {
	f.spec = spec
	return "i-1", f.call("RunInstance")
}

func (f *fakeCloud) WaitInstanceRunning(_ context.Context, _ string, timeout time.Duration) error {
	f.waits["instance"] = timeout
	return f.call("WaitInstanceRunning")
}

func (f *fakeCloud) CreateImage(_ context.Context, _, _ string) (string, error) {
	return "ami-1", f.call("CreateImage")
}

func (f *fakeCloud) WaitImageAvailable(_ context.Context, _ string, timeout time.Duration) error {
	f.waits["image"] = timeout
	return f.call("WaitImageAvailable")
}

func (f *fakeCloud) TerminateInstance(_ context.Context, _ string) error {
	return f.call("TerminateInstance")
}

func testContext(t *testing.T, cloud *fakeCloud) (*Context, *MockObserver) {
	t.Helper()

	plan := config.Default()
	plan.Repository.URL = "https://github.com/example/app.git"
	plan.Infrastructure.KeyDir = t.TempDir()

	observer := NewMockObserver()
	if cloud.waits == nil {
		cloud.waits = map[string]time.Duration{}
	}
	ctx := NewContext(context.Background(), plan, "0b4c2a9e-7d1f-4e55-9a40-1c3f2b8e6d77", cloud, observer)
	ctx.UserData = "#!/usr/bin/env bash\n"
	return ctx, observer
}

func TestDefaultPhases_FullRun(t *testing.T) {
	cloud := &fakeCloud{}
	ctx, observer := testContext(t, cloud)

	require.NoError(t, NewPipeline(DefaultPhases()...).Run(ctx))

	assert.Equal(t, []string{
		"CreateKeyPair",
		"CreateVPC", "AvailabilityZones",
		"CreateSubnet", "CreateSubnet", "CreateSubnet", "CreateSubnet", "CreateSubnet", "CreateSubnet",
		"CreateSecurityGroup", "AuthorizeIngress",
		"RunInstance", "WaitInstanceRunning",
		"CreateImage", "WaitImageAvailable", "TerminateInstance",
	}, cloud.calls)

	assert.Equal(t, []string{
		"acs-assignment Public Subnet-1 10.0.0.0/24 eu-west-1a",
		"acs-assignment Private Subnet-1 10.0.3.0/24 eu-west-1a",
		"acs-assignment Public Subnet-2 10.0.1.0/24 eu-west-1b",
		"acs-assignment Private Subnet-2 10.0.4.0/24 eu-west-1b",
		"acs-assignment Public Subnet-3 10.0.2.0/24 eu-west-1c",
		"acs-assignment Private Subnet-3 10.0.5.0/24 eu-west-1c",
	}, cloud.subnets)

	state := ctx.State
	assert.Equal(t, "acs-assignment-key", state.KeyPairName)
	assert.Equal(t, "vpc-1", state.VPCID)
	assert.Len(t, state.PublicSubnetIDs, 3)
	assert.Len(t, state.PrivateSubnetIDs, 3)
	assert.Equal(t, "sg-1", state.SecurityGroupID)
	assert.Equal(t, "i-1", state.InstanceID)
	assert.Equal(t, "ami-1", state.ImageID)
	assert.True(t, state.InstanceTerminated)

	assert.Equal(t, "acs-assignment-image-creation-instance", cloud.spec.Name)
	assert.Equal(t, "ami-096f43ef67d75e998", cloud.spec.ImageID)
	assert.Equal(t, "t2.nano", cloud.spec.InstanceType)
	assert.Equal(t, "acs-assignment-key", cloud.spec.KeyName)
	assert.Equal(t, "subnet-10.0.0.0/24", cloud.spec.SubnetID)
	assert.Equal(t, "sg-1", cloud.spec.SecurityGroupID)
	assert.Equal(t, ctx.UserData, cloud.spec.UserData)

	assert.Equal(t, ctx.Timeouts.InstanceRunning, cloud.waits["instance"])
	assert.Equal(t, ctx.Timeouts.ImageAvailable, cloud.waits["image"])

	assert.Len(t, observer.eventsOfType(EventProgress), 6)
	assert.Equal(t, "0b4c2a9e-7d1f-4e55-9a40-1c3f2b8e6d77", observer.fields["run"])
}

func TestKeyPairPhase_WritesPrivateKey(t *testing.T) {
	cloud := &fakeCloud{}
	ctx, _ := testContext(t, cloud)

	require.NoError(t, (&KeyPairPhase{}).Provision(ctx))

	want := filepath.Join(ctx.Plan.Infrastructure.KeyDir, "acs-assignment-key.pem")
	assert.Equal(t, want, ctx.State.KeyFile)

	info, err := os.Stat(want)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "PRIVATE KEY", string(data))
}

func TestKeyPairPhase_DryRunWritesNothing(t *testing.T) {
	cloud := &fakeCloud{dryRun: true}
	ctx, _ := testContext(t, cloud)

	require.NoError(t, (&KeyPairPhase{}).Provision(ctx))
	assert.Empty(t, ctx.State.KeyFile)

	entries, err := os.ReadDir(ctx.Plan.Infrastructure.KeyDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSecurityGroupPhase_Rules(t *testing.T) {
	cloud := &fakeCloud{}
	ctx, _ := testContext(t, cloud)
	ctx.State.VPCID = "vpc-1"

	require.NoError(t, (&SecurityGroupPhase{}).Provision(ctx))

	var ports []int32
	for _, r := range cloud.rules {
		ports = append(ports, r.Port)
		assert.Equal(t, "0.0.0.0/0", r.CIDR)
	}
	assert.Equal(t, []int32{80, 443, 22}, ports)
	assert.Equal(t, "sg-1", ctx.State.SecurityGroupID)
}

func TestImagePhase_KeepInstance(t *testing.T) {
	cloud := &fakeCloud{}
	ctx, _ := testContext(t, cloud)
	ctx.State.InstanceID = "i-1"
	ctx.KeepInstance = true

	require.NoError(t, (&ImagePhase{}).Provision(ctx))
	assert.Equal(t, []string{"CreateImage", "WaitImageAvailable"}, cloud.calls)
	assert.False(t, ctx.State.InstanceTerminated)
	assert.Equal(t, "ami-1", ctx.State.ImageID)
}

func TestPhases_RequireEarlierState(t *testing.T) {
	cloud := &fakeCloud{}
	ctx, _ := testContext(t, cloud)

	assert.Error(t, (&InstancePhase{}).Provision(ctx))
	assert.Error(t, (&ImagePhase{}).Provision(ctx))
	assert.Empty(t, cloud.calls)
}

func TestDefaultPhases_StopAtFailure(t *testing.T) {
	cloud := &fakeCloud{failOn: "CreateSecurityGroup"}
	ctx, observer := testContext(t, cloud)

	err := NewPipeline(DefaultPhases()...).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "security group phase failed")
	assert.NotContains(t, cloud.calls, "RunInstance")
	assert.Len(t, observer.eventsOfType(EventResourceFailed), 1)
}

func TestValidationPhase(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *testing.T, ctx *Context)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*testing.T, *Context) {},
		},
		{
			name:    "invalid plan",
			mutate:  func(_ *testing.T, ctx *Context) { ctx.Plan.Repository.URL = "" },
			wantErr: "repository.url is required",
		},
		{
			name:    "empty user data",
			mutate:  func(_ *testing.T, ctx *Context) { ctx.UserData = "  " },
			wantErr: "startup script is empty",
		},
		{
			name:    "missing image",
			mutate:  func(_ *testing.T, ctx *Context) { ctx.Plan.Infrastructure.ImageID = "" },
			wantErr: "base image is required",
		},
		{
			name: "key file exists",
			mutate: func(t *testing.T, ctx *Context) {
				path := filepath.Join(ctx.Plan.Infrastructure.KeyDir, "acs-assignment-key.pem")
				require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
			},
			wantErr: "already exists",
		},
		{
			name: "missing key dir",
			mutate: func(_ *testing.T, ctx *Context) {
				ctx.Plan.Infrastructure.KeyDir = filepath.Join(ctx.Plan.Infrastructure.KeyDir, "nope")
			},
			wantErr: "infrastructure.key_dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, observer := testContext(t, &fakeCloud{})
			tt.mutate(t, ctx)

			err := NewValidationPhase().Provision(ctx)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Empty(t, observer.eventsOfType(EventValidationError))
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NotEmpty(t, observer.eventsOfType(EventValidationError))
		})
	}
}

func TestValidationPhase_KeepInstanceWarns(t *testing.T) {
	ctx, observer := testContext(t, &fakeCloud{})
	ctx.KeepInstance = true

	require.NoError(t, NewValidationPhase().Provision(ctx))
	assert.Len(t, observer.eventsOfType(EventValidationWarning), 1)
}

func TestValidationError(t *testing.T) {
	ve := ValidationError{Field: "plan", Message: "bad", Severity: "error"}
	assert.Equal(t, "[error] plan: bad", ve.Error())
	assert.True(t, ve.IsError())
	assert.False(t, ValidationError{Severity: "warning"}.IsError())
}
