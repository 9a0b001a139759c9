package config

// Plan is the desired state of a single application host.
type Plan struct {
	// Name identifies the application; cloud resources are named after it.
	Name string `yaml:"name"`

	// PackageManager selects the OS package manager: apt, yum or dnf.
	PackageManager string `yaml:"package_manager"`

	// Sudo prefixes package manager commands with sudo.
	Sudo bool `yaml:"sudo,omitempty"`

	// Packages are installed in the install-packages step. They must
	// provide a source-control client and a JavaScript runtime.
	Packages []string `yaml:"packages"`

	Repository RepositoryConfig `yaml:"repository"`

	// DeployPath is the fixed local path the repository is cloned into.
	// Any prior content at this path is removed before cloning.
	DeployPath string `yaml:"deploy_path"`

	// Install is the dependency install command, run inside DeployPath.
	Install []string `yaml:"install"`

	// Entrypoint is the command launched in the foreground inside DeployPath.
	Entrypoint []string `yaml:"entrypoint"`

	Listen ListenConfig `yaml:"listen,omitempty"`

	// ContinueOnError lists step names whose failure is recorded but
	// does not stop the run.
	ContinueOnError []string `yaml:"continue_on_error,omitempty"`

	Infrastructure InfraConfig `yaml:"infrastructure,omitempty"`
}

// RepositoryConfig points at the application source.
type RepositoryConfig struct {
	URL string `yaml:"url"`
	// Ref is an optional branch name. Empty means the remote HEAD.
	Ref string `yaml:"ref,omitempty"`
}

// ListenConfig is the plan-level listen address handed to the launched
// application. Zero values defer to the environment and then to defaults.
type ListenConfig struct {
	IP   string `yaml:"ip,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// InfraConfig holds the EC2 settings used by `appboot provision`.
type InfraConfig struct {
	Region       string `yaml:"region"`
	CIDR         string `yaml:"cidr"`
	ImageID      string `yaml:"image_id"`
	InstanceType string `yaml:"instance_type"`
	// KeyDir is where the generated private key file is written.
	KeyDir string `yaml:"key_dir,omitempty"`
	// Zones is the number of availability zones that get a public and a
	// private subnet.
	Zones int `yaml:"zones"`
}

// ShouldContinue reports whether a failure of the named step is ignored.
func (p *Plan) ShouldContinue(step string) bool {
	for _, name := range p.ContinueOnError {
		if name == step {
			return true
		}
	}
	return false
}
