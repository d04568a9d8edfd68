package cloud

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canonical/ubuntu-advantage-client/internal/testutil"
)

type fakeSystem struct {
	files   map[string]string
	cloudID string
	idErr   error
	awsOK   bool
	awsErr  error
	onGCE   bool

	awsCalls int
}

func (s *fakeSystem) ReadFile(name string) ([]byte, error) {
	if data, ok := s.files[name]; ok {
		return []byte(data), nil
	}
	return nil, fs.ErrNotExist
}

func (s *fakeSystem) CloudID(context.Context) (string, error) {
	if s.idErr != nil {
		return "", s.idErr
	}
	return s.cloudID, nil
}

func (s *fakeSystem) AWSInstanceIdentity(ctx context.Context) (bool, error) {
	s.awsCalls++
	if _, ok := ctx.Deadline(); !ok {
		return false, errors.New("probe without deadline")
	}
	return s.awsOK, s.awsErr
}

func (s *fakeSystem) OnGCE() bool {
	return s.onGCE
}

var errNoCloudInit = errors.New("cloud-id: executable file not found")

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		sys      *fakeSystem
		expected Provider
	}{
		{name: "cloud-id azure", sys: &fakeSystem{cloudID: "azure\n"}, expected: ProviderAzure},
		{name: "cloud-id aws-gov", sys: &fakeSystem{cloudID: "aws-gov"}, expected: ProviderAWS},
		{name: "cloud-id lxd", sys: &fakeSystem{cloudID: "lxd"}, expected: Provider("lxd")},
		{name: "cloud-id none", sys: &fakeSystem{cloudID: "none"}, expected: ProviderNone},
		{
			name: "azure asset tag",
			sys: &fakeSystem{idErr: errNoCloudInit, files: map[string]string{
				dmiDir + "chassis_asset_tag": azureChassisAssetTag + "\n",
			}},
			expected: ProviderAzure,
		},
		{
			name: "aws dmi confirmed by imds",
			sys: &fakeSystem{idErr: errNoCloudInit, awsOK: true, files: map[string]string{
				dmiDir + "sys_vendor": "Amazon EC2",
			}},
			expected: ProviderAWS,
		},
		{
			name: "aws dmi without imds",
			sys: &fakeSystem{idErr: errNoCloudInit, awsErr: errors.New("timeout"), files: map[string]string{
				dmiDir + "product_version": "4.11.amazon",
			}},
			expected: ProviderNone,
		},
		{
			name: "gce",
			sys: &fakeSystem{idErr: errNoCloudInit, onGCE: true, files: map[string]string{
				dmiDir + "product_name": gceProductName,
			}},
			expected: ProviderGCE,
		},
		{
			name:     "gce metadata without dmi",
			sys:      &fakeSystem{idErr: errNoCloudInit, onGCE: true},
			expected: ProviderNone,
		},
		{name: "nothing", sys: &fakeSystem{idErr: errNoCloudInit}, expected: ProviderNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NewDetector(tc.sys).Lookup(context.Background())
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestLookupSkipsIMDSWithoutAmazonHardware(t *testing.T) {
	sys := &fakeSystem{idErr: errNoCloudInit, awsOK: true}
	assert.Equal(t, ProviderNone, NewDetector(sys).Lookup(context.Background()))
	assert.Zero(t, sys.awsCalls)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "an Azure", Title(ProviderAzure))
	assert.Equal(t, "a GCP", Title(ProviderGCE))
	assert.Equal(t, "lxd", Title(Provider("lxd")))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, ProviderAzure, Normalize(" AZURE-china "))
	assert.Equal(t, ProviderIBM, Normalize("ibmcloud"))
	assert.Equal(t, ProviderNone, Normalize("unknown"))
}

func TestRealSystemCloudID(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteStubWithOutput(t, dir, "cloud-id", "azure\n", 0)
	testutil.PrependPath(t, dir)

	id, err := RealSystem{}.CloudID(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, ProviderAzure, Normalize(id))
}

func TestRealSystemCloudIDFailure(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteStubWithExit(t, dir, "cloud-id", 2)
	testutil.PrependPath(t, dir)

	_, err := RealSystem{}.CloudID(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cloud-id failed")
}
