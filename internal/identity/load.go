package identity

import (
	"context"
	"log/slog"

	"hostnamed"
	"hostnamed/platform"
)

const staticHostnameExpr = "${" + KeyHostname + "-${" + KeyHostnameAlt + "-" + platform.FallbackHostname + "}}"

// Sources are the collaborators read once at startup.
type Sources struct {
	Host           Host
	StaticHostname ConfigStore
	MachineInfo    ConfigStore
	Icons          IconGuesser
}

// Load builds the initial snapshot. Unreadable sources fall back to
// their defaults and never abort startup; only a cancelled ctx fails.
func Load(ctx context.Context, src Sources) (hostnamed.Snapshot, error) {
	var snap hostnamed.Snapshot
	if err := ctx.Err(); err != nil {
		return snap, err
	}

	hostname := platform.FallbackHostname
	if src.Host != nil {
		if name, err := src.Host.Hostname(); err != nil {
			slog.Debug("Read runtime hostname failed.", "err", err)
		} else if name != "" {
			hostname = name
		}
	}
	snap = snap.Set(hostnamed.Hostname, hostname)

	static := platform.FallbackHostname
	if src.StaticHostname != nil {
		if v, err := src.StaticHostname.Source(staticHostnameExpr); err != nil {
			slog.Debug("Read static hostname failed.", "err", err)
		} else {
			static = v
		}
	}
	snap = snap.Set(hostnamed.StaticHostname, static)

	for _, a := range hostnamed.Attributes() {
		f := flows[a]
		if f.store != storeMachineInfo {
			continue
		}
		if err := ctx.Err(); err != nil {
			return snap, err
		}
		snap = snap.Set(a, sourceKey(src.MachineInfo, f.key))
	}

	if snap.IconName == "" && src.Icons != nil {
		snap = snap.Set(hostnamed.IconName, src.Icons.GuessIcon())
	}
	return snap, nil
}

func sourceKey(store ConfigStore, key string) string {
	if store == nil {
		return ""
	}
	v, err := store.Source("${" + key + "}")
	if err != nil {
		slog.Debug("Read machine info failed.", "key", key, "err", err)
		return ""
	}
	return v
}
