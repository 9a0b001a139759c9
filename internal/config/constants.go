package config

// Step names, in execution order. They are stable identifiers used by
// continue_on_error, logs, metrics and run reports.
const (
	StepRefreshIndex        = "refresh-package-index"
	StepInstallPackages     = "install-packages"
	StepCloneRepository     = "clone-repository"
	StepInstallDependencies = "install-dependencies"
	StepLaunchApplication   = "launch-application"
)

// StepNames returns the step names in execution order.
func StepNames() []string {
	return []string{
		StepRefreshIndex,
		StepInstallPackages,
		StepCloneRepository,
		StepInstallDependencies,
		StepLaunchApplication,
	}
}

// Package managers understood by the bootstrap runner.
const (
	PackageManagerApt = "apt"
	PackageManagerYum = "yum"
	PackageManagerDnf = "dnf"
)

// ValidPackageManagers contains every supported package manager.
var ValidPackageManagers = map[string]bool{
	PackageManagerApt: true,
	PackageManagerYum: true,
	PackageManagerDnf: true,
}

// Defaults.
const (
	DefaultName           = "acs-assignment"
	DefaultPackageManager = PackageManagerApt
	DefaultDeployPath     = "/srv/app"
	DefaultIP             = "localhost"
	DefaultPort           = 8000

	DefaultRegion       = "eu-west-1"
	DefaultCIDR         = "10.0.0.0/16"
	DefaultImageID      = "ami-096f43ef67d75e998"
	DefaultInstanceType = "t2.nano"
	DefaultZones        = 3
)

// DefaultPackages returns the packages installed when a plan lists none:
// a source-control client and a JavaScript runtime with its package manager.
func DefaultPackages() []string {
	return []string{"git", "nodejs", "npm"}
}
