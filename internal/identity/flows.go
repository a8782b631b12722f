package identity

import "hostnamed"

// Polkit action ids. All machine-info attributes share one action.
const (
	ActionSetHostname       = "org.freedesktop.hostname1.set-hostname"
	ActionSetStaticHostname = "org.freedesktop.hostname1.set-static-hostname"
	ActionSetMachineInfo    = "org.freedesktop.hostname1.set-machine-info"
)

// Keys in the persisted stores.
const (
	KeyHostname       = "hostname"
	KeyHostnameAlt    = "HOSTNAME"
	KeyPrettyHostname = "PRETTY_HOSTNAME"
	KeyIconName       = "ICON_NAME"
	KeyChassis        = "CHASSIS"
	KeyDeployment     = "DEPLOYMENT"
	KeyLocation       = "LOCATION"
)

type storeKind uint8

const (
	storeNone storeKind = iota
	storeStaticHostname
	storeMachineInfo
)

// flow is the per-attribute configuration of the shared request path.
type flow struct {
	action    string
	normalize func(*State, string) string
	store     storeKind
	key       string
	altKey    string
	// applyHost pushes the value into the running kernel before commit.
	applyHost bool
}

var flows = [attributeCount]flow{
	hostnamed.Hostname: {
		action:    ActionSetHostname,
		normalize: normalizeHostname,
		applyHost: true,
	},
	hostnamed.StaticHostname: {
		action:    ActionSetStaticHostname,
		normalize: normalizeStaticHostname,
		store:     storeStaticHostname,
		key:       KeyHostname,
		altKey:    KeyHostnameAlt,
	},
	hostnamed.PrettyHostname: machineInfoFlow(KeyPrettyHostname),
	hostnamed.IconName:       machineInfoFlow(KeyIconName),
	hostnamed.Chassis:        machineInfoFlow(KeyChassis),
	hostnamed.Deployment:     machineInfoFlow(KeyDeployment),
	hostnamed.Location:       machineInfoFlow(KeyLocation),
}

func machineInfoFlow(key string) flow {
	return flow{
		action:    ActionSetMachineInfo,
		normalize: normalizeFreeform,
		store:     storeMachineInfo,
		key:       key,
	}
}

// Action returns the authorization action guarding a.
func Action(a hostnamed.Attribute) string {
	if !a.Valid() {
		return ""
	}
	return flows[a].action
}
