package provisioning

import (
	"fmt"
	"path/filepath"

	"github.com/acs-assignment/appboot/internal/util/keygen"
	"github.com/acs-assignment/appboot/internal/util/naming"
)

// KeyPairPhase creates the EC2 key pair and stores its private key next to
// the plan as <name>-key.pem with mode 0600.
type KeyPairPhase struct{}

// Name implements the Phase interface.
func (p *KeyPairPhase) Name() string { return "key pair" }

// Provision implements the Phase interface.
func (p *KeyPairPhase) Provision(ctx *Context) error {
	name := naming.KeyPair(ctx.Plan.Name)
	LogResourceCreating(ctx.Observer, p.Name(), "key pair", name)

	kp, err := ctx.Cloud.CreateKeyPair(ctx, name)
	if err != nil {
		LogResourceFailed(ctx.Observer, p.Name(), "key pair", name, err)
		return err
	}
	ctx.State.KeyPairID = kp.ID
	ctx.State.KeyPairName = kp.Name
	LogResourceCreated(ctx.Observer, p.Name(), "key pair", kp.Name, kp.ID)

	if len(kp.Material) == 0 {
		if ctx.Cloud.DryRun() {
			return nil
		}
		return fmt.Errorf("key pair %s returned no private key", kp.Name)
	}

	path := filepath.Join(ctx.Plan.Infrastructure.KeyDir, naming.KeyFile(ctx.Plan.Name))
	if err := keygen.WritePrivateKey(path, kp.Material); err != nil {
		return err
	}
	ctx.State.KeyFile = path
	ctx.Observer.Printf("Private key written to %s", path)
	return nil
}
