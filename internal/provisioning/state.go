package provisioning

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	KeyPairID   string
	KeyPairName string
	KeyFile     string // local path of the private key, empty in dry-run

	VPCID            string
	Zones            []string
	PublicSubnetIDs  []string
	PrivateSubnetIDs []string
	SecurityGroupID  string

	InstanceID         string
	InstanceTerminated bool
	ImageID            string
}
