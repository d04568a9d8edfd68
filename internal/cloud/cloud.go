// Package cloud identifies the public cloud the host is running on.
package cloud

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Provider identifies a cloud platform. ProviderNone means no cloud was detected.
type Provider string

const (
	ProviderNone   Provider = ""
	ProviderAWS    Provider = "aws"
	ProviderAzure  Provider = "azure"
	ProviderGCE    Provider = "gce"
	ProviderOracle Provider = "oracle"
	ProviderIBM    Provider = "ibm"
	ProviderLXD    Provider = "lxd"
)

// DMI identifiers used to recognise cloud hardware.
const (
	azureChassisAssetTag  = "7783-7084-3265-9085-8269-3286-77"
	oracleChassisAssetTag = "OracleCloud.com"
	gceProductName        = "Google Compute Engine"
)

const dmiDir = "/sys/class/dmi/id/"

// probeTimeout bounds each network metadata probe.
const probeTimeout = 2 * time.Second

// aliases normalise cloud-id output to a Provider.
var aliases = map[string]Provider{
	"aws":         ProviderAWS,
	"aws-china":   ProviderAWS,
	"aws-gov":     ProviderAWS,
	"azure":       ProviderAzure,
	"azure-china": ProviderAzure,
	"gce":         ProviderGCE,
	"oracle":      ProviderOracle,
	"ibmcloud":    ProviderIBM,
	"lxd":         ProviderLXD,
}

var titles = map[Provider]string{
	ProviderAWS:   "an AWS",
	ProviderAzure: "an Azure",
	ProviderGCE:   "a GCP",
}

// Title returns the display title used in blocking messages, e.g. "an Azure".
func Title(p Provider) string {
	if title, ok := titles[p]; ok {
		return title
	}
	return string(p)
}

// Normalize maps a raw cloud identifier to a Provider.
// Unknown identifiers are kept verbatim; "none" and "unknown" map to ProviderNone.
func Normalize(raw string) Provider {
	id := strings.ToLower(strings.TrimSpace(raw))
	switch id {
	case "", "none", "unknown":
		return ProviderNone
	}
	if p, ok := aliases[id]; ok {
		return p
	}
	return Provider(id)
}

// Detector looks up the current cloud provider.
type Detector struct {
	sys System
}

// NewDetector returns a Detector backed by sys. A nil sys uses RealSystem.
func NewDetector(sys System) *Detector {
	if sys == nil {
		sys = RealSystem{}
	}
	return &Detector{sys: sys}
}

// Lookup returns the provider of the current host, or ProviderNone.
// Probe failures are logged and never surfaced.
func (d *Detector) Lookup(ctx context.Context) Provider {
	if raw, err := d.sys.CloudID(ctx); err != nil {
		log.Debug().Err(err).Msg("cloud-id unavailable, falling back to DMI")
	} else if p := Normalize(raw); p != ProviderNone {
		return p
	}

	switch d.dmi("chassis_asset_tag") {
	case azureChassisAssetTag:
		return ProviderAzure
	case oracleChassisAssetTag:
		return ProviderOracle
	}

	if d.looksLikeAWS() {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		ok, err := d.sys.AWSInstanceIdentity(probeCtx)
		if err != nil {
			log.Debug().Err(err).Msg("aws instance metadata probe failed")
		}
		if ok {
			return ProviderAWS
		}
	}

	if d.dmi("product_name") == gceProductName && d.sys.OnGCE() {
		return ProviderGCE
	}
	return ProviderNone
}

func (d *Detector) looksLikeAWS() bool {
	if strings.HasPrefix(d.dmi("sys_vendor"), "Amazon") {
		return true
	}
	if strings.Contains(strings.ToLower(d.dmi("product_version")), "amazon") {
		return true
	}
	return strings.HasPrefix(d.dmi("bios_vendor"), "Amazon")
}

// dmi reads a single DMI attribute, returning "" when it is unavailable.
func (d *Detector) dmi(name string) string {
	data, err := d.sys.ReadFile(dmiDir + name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
