package identity

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hostnamed"
	"hostnamed/internal/shellconf"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		host    *fakeHost
		static  string
		info    string
		wantErr bool
		want    hostnamed.Snapshot
	}{
		{
			name:   "all sources present",
			host:   &fakeHost{name: "live"},
			static: "hostname=web01\n",
			info:   "PRETTY_HOSTNAME='Web One'\nICON_NAME=computer-server\nCHASSIS=server\nDEPLOYMENT=production\nLOCATION=\"rack 4\"\n",
			want: hostnamed.Snapshot{
				Hostname:       "live",
				StaticHostname: "web01",
				PrettyHostname: "Web One",
				IconName:       "computer-server",
				Chassis:        "server",
				Deployment:     "production",
				Location:       "rack 4",
			},
		},
		{
			name:   "alternate static key",
			host:   &fakeHost{name: "live"},
			static: "HOSTNAME=gentoo\n",
			want:   hostnamed.Snapshot{Hostname: "live", StaticHostname: "gentoo", IconName: "computer-vm"},
		},
		{
			name:   "hostname key wins over alternate",
			host:   &fakeHost{name: "live"},
			static: "HOSTNAME=old\nhostname=new\n",
			want:   hostnamed.Snapshot{Hostname: "live", StaticHostname: "new", IconName: "computer-vm"},
		},
		{
			name:   "empty static file",
			host:   &fakeHost{name: "live"},
			static: "# nothing here\n",
			want:   hostnamed.Snapshot{Hostname: "live", StaticHostname: "localhost", IconName: "computer-vm"},
		},
		{
			name: "nothing readable",
			host: &fakeHost{err: errors.New("uname failed")},
			want: hostnamed.Snapshot{Hostname: "localhost", StaticHostname: "localhost", IconName: "computer-vm"},
		},
		{
			name:   "unparseable machine info line",
			host:   &fakeHost{name: "live"},
			static: "hostname=web01\n",
			info:   "CHASSIS=$(reboot)\nLOCATION=lab\n",
			want:   hostnamed.Snapshot{Hostname: "live", StaticHostname: "web01", IconName: "computer-vm", Location: "lab"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := Sources{
				Host:           tt.host,
				StaticHostname: shellconf.New(filepath.Join(dir, "hostname")),
				MachineInfo:    shellconf.New(filepath.Join(dir, "machine-info")),
				Icons:          fakeIcons("computer-vm"),
			}
			if tt.static != "" {
				writeTestFile(t, filepath.Join(dir, "hostname"), tt.static)
			}
			if tt.info != "" {
				writeTestFile(t, filepath.Join(dir, "machine-info"), tt.info)
			}

			got, err := Load(context.Background(), src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("Load() = %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, Sources{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Load error = %v, want context.Canceled", err)
	}
}

func TestLoadNilSources(t *testing.T) {
	got, err := Load(context.Background(), Sources{})
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	want := hostnamed.Snapshot{Hostname: "localhost", StaticHostname: "localhost"}
	if got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
