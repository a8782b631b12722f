package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hostnamed/config"
	"hostnamed/internal/bus"
	"hostnamed/internal/identity"
	"hostnamed/internal/journal"
	"hostnamed/internal/polkit"
	"hostnamed/internal/shellconf"
	"hostnamed/internal/watch"
	"hostnamed/platform"

	systemd "github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"
)

// Run loads the identity state, serves it on the bus and blocks until
// ctx is cancelled or the bus name is lost.
func Run(ctx context.Context, cfg config.Config) (err error) {
	staticStore := shellconf.New(cfg.StaticHostnameFile)
	infoStore := shellconf.New(cfg.MachineInfoFile)
	host := platform.Host{}

	snap, err := identity.Load(ctx, identity.Sources{
		Host:           host,
		StaticHostname: staticStore,
		MachineInfo:    infoStore,
		Icons:          platform.Icons{SysRoot: cfg.SysRoot},
	})
	if err != nil {
		return fmt.Errorf("load identity: %w", err)
	}

	conn, err := bus.Connect(ctx, cfg.Bus)
	if err != nil {
		return err
	}
	var cleanup []func() error
	defer func() {
		var errs []error
		for i := len(cleanup) - 1; i >= 0; i-- {
			if cerr := cleanup[i](); cerr != nil {
				errs = append(errs, cerr)
			}
		}
		err = errors.Join(append([]error{err}, errs...)...)
	}()
	cleanup = append(cleanup, conn.Close)

	broker := watch.NewBroker()
	cleanup = append(cleanup, func() error { broker.Close(); return nil })

	srv := bus.NewServer(ctx, conn)
	engine := identity.New(snap, polkit.New(conn),
		identity.Stores{StaticHostname: staticStore, MachineInfo: infoStore},
		host,
		identity.WithReadOnly(cfg.ReadOnly),
		identity.WithPublisher(identity.Publishers{srv, broker}),
	)
	if err := srv.Export(engine); err != nil {
		return err
	}
	if err := srv.RequestName(); err != nil {
		return err
	}
	cleanup = append(cleanup, srv.Close)

	var journalDB *journal.Journal
	if cfg.Journal != "" {
		journalDB, err = journal.Open(cfg.Journal)
		if err != nil {
			return err
		}
		cleanup = append(cleanup, journalDB.Close)
	}

	slog.Info("Serving machine identity.",
		"hostname", snap.Hostname,
		"static_hostname", snap.StaticHostname,
		"read_only", engine.ReadOnly(),
	)
	if _, err := systemd.SdNotify(false, systemd.SdNotifyReady); err != nil {
		slog.Error("Failed to notify systemd that the daemon is ready.", "err", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.WatchName(gctx) })
	if journalDB != nil {
		g.Go(func() error { return journalDB.Run(gctx, broker) })
	}
	err = g.Wait()

	if _, nerr := systemd.SdNotify(false, systemd.SdNotifyStopping); nerr != nil {
		slog.Debug("Failed to notify systemd that the daemon is stopping.", "err", nerr)
	}
	return err
}
