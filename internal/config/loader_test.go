package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/okian/mercato/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "data")
				convey.So(cfg.SnapshotPath, convey.ShouldEqual, "data/transfers.csv.gz")
				convey.So(cfg.RebuildSnapshot, convey.ShouldBeFalse)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.MatchThreshold, convey.ShouldEqual, 80)
				convey.So(cfg.MaxTenureYears, convey.ShouldEqual, 24)
				convey.So(cfg.TopLimit, convey.ShouldEqual, 10)
				convey.So(cfg.ProgressEvery, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MERCATO_ADDR", ":8080")
			_ = os.Setenv("MERCATO_DATA_DIR", "/srv/transfers")
			_ = os.Setenv("MERCATO_REBUILD_SNAPSHOT", "true")
			_ = os.Setenv("MERCATO_WORKER_COUNT", "16")
			_ = os.Setenv("MERCATO_MATCH_THRESHOLD", "85")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/transfers")
				convey.So(cfg.RebuildSnapshot, convey.ShouldBeTrue)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.MatchThreshold, convey.ShouldEqual, 85)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeConfigFile(t, `
addr: ":9090"
snapshot_path: "/tmp/mercato.csv.gz"
queue_size: 500
max_tenure_years: 10
top_limit: 5
progress_every: 250
`)
			_ = os.Setenv("MERCATO_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.SnapshotPath, convey.ShouldEqual, "/tmp/mercato.csv.gz")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.MaxTenureYears, convey.ShouldEqual, 10)
				convey.So(cfg.TopLimit, convey.ShouldEqual, 5)
				convey.So(cfg.ProgressEvery, convey.ShouldEqual, 250)
			})
		})

		convey.Convey("When both a file and env vars are set", func() {
			path := writeConfigFile(t, `
addr: ":9090"
worker_count: 24
`)
			_ = os.Setenv("MERCATO_CONFIG", path)
			_ = os.Setenv("MERCATO_ADDR", ":7070")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars take precedence", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 24)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("MERCATO_CONFIG", "/non/existent/file.yaml")

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file is not valid YAML", func() {
			_ = os.Setenv("MERCATO_CONFIG", writeConfigFile(t, "addr: [unclosed"))

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a numeric env var is malformed", func() {
			_ = os.Setenv("MERCATO_QUEUE_SIZE", "invalid")

			_, err := config.Load(ctx)

			convey.Convey("Then decoding fails", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the address is empty", func() {
			_ = os.Setenv("MERCATO_ADDR", "")

			_, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the threshold is out of range", func() {
			_ = os.Setenv("MERCATO_MATCH_THRESHOLD", "101")

			_, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, name := range []string{
		"MERCATO_CONFIG",
		"MERCATO_LOG_LEVEL",
		"MERCATO_ADDR",
		"MERCATO_DATA_DIR",
		"MERCATO_SNAPSHOT_PATH",
		"MERCATO_REBUILD_SNAPSHOT",
		"MERCATO_WORKER_COUNT",
		"MERCATO_QUEUE_SIZE",
		"MERCATO_MATCH_THRESHOLD",
		"MERCATO_MAX_TENURE_YEARS",
		"MERCATO_TOP_LIMIT",
		"MERCATO_PROGRESS_EVERY",
	} {
		_ = os.Unsetenv(name)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
