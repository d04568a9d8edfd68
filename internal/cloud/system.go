package cloud

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"cloud.google.com/go/compute/metadata"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
)

// System abstracts the probes needed by the Detector.
type System interface {
	ReadFile(name string) ([]byte, error)
	CloudID(ctx context.Context) (string, error)
	AWSInstanceIdentity(ctx context.Context) (bool, error)
	OnGCE() bool
}

// RealSystem implements System using cloud-init, sysfs and the cloud metadata services.
type RealSystem struct{}

var execCommandContext = exec.CommandContext

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// CloudID runs cloud-init's cloud-id and returns its output.
func (RealSystem) CloudID(ctx context.Context) (string, error) {
	out, err := execCommandContext(ctx, "cloud-id").Output()
	if err != nil {
		return "", fmt.Errorf(messages.CloudIDCommandFailedFmt, err)
	}
	return string(out), nil
}

// AWSInstanceIdentity reports whether the EC2 instance metadata service answers.
func (RealSystem) AWSInstanceIdentity(ctx context.Context) (bool, error) {
	client := imds.New(imds.Options{})
	out, err := client.GetMetadata(ctx, &imds.GetMetadataInput{Path: "instance-id"})
	if err != nil {
		return false, fmt.Errorf(messages.CloudIMDSFailedFmt, err)
	}
	defer func() {
		_ = out.Content.Close()
	}()
	id, err := io.ReadAll(out.Content)
	if err != nil {
		return false, fmt.Errorf(messages.CloudIMDSFailedFmt, err)
	}
	return len(id) > 0, nil
}

// OnGCE reports whether the GCE metadata server is reachable.
func (RealSystem) OnGCE() bool {
	return metadata.OnGCE()
}
