package platform

const (
	// HostNameMax is the longest hostname the Linux kernel accepts.
	HostNameMax = 64

	StaticHostnamePath = "/etc/conf.d/hostname"
	MachineInfoPath    = "/etc/machine-info"
	ConfigPath         = "/etc/hostnamed/config.yaml"
	JournalPath        = "/var/lib/hostnamed/journal.db"
	SysRoot            = "/sys"

	FallbackHostname = "localhost"
)
