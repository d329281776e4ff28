package config

import (
	"cmp"
	"github.com/mihaipriboi/HackitAll2025/devcode"
	"github.com/mihaipriboi/HackitAll2025/gametime"
	"github.com/mihaipriboi/HackitAll2025/local"
	"github.com/mihaipriboi/HackitAll2025/world"
	"golang.org/x/time/rate"
	"os"
	"strconv"
	"time"
)

var Config = accessor{}

type accessor struct{}

func (accessor) EchoPort() int {
	if raw := os.Getenv("ROTABLES_PORT"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}

	return 8181
}

func (accessor) BaseUrl() string {
	return cmp.Or(os.Getenv("ROTABLES_API_URL"), "http://localhost:8080")
}

func (accessor) DataDir() string {
	return cmp.Or(os.Getenv("ROTABLES_DATA_DIR"), "data")
}

// APIKey prefers the environment, then the first team of teams.csv, then
// the server's default test key.
func (a accessor) APIKey() string {
	if key := os.Getenv("ROTABLES_API_KEY"); key != "" {
		return key
	}

	key, err := world.ReadAPIKey(a.DataDir())
	if err != nil {
		return "TEST_KEY"
	}

	return cmp.Or(key, "TEST_KEY")
}

func (accessor) Pace() time.Duration {
	if raw := os.Getenv("ROTABLES_PACE"); raw != "" {
		if v, err := time.ParseDuration(raw); err == nil {
			return v
		}
	}

	return 50 * time.Millisecond
}

func (accessor) TotalHours() int {
	if raw := os.Getenv("ROTABLES_TOTAL_HOURS"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}

	return gametime.TotalHours
}

func (a accessor) GameClient() *devcode.Client {
	return devcode.NewClient(
		a.APIKey(),
		devcode.WithBaseUrl(a.BaseUrl()),
		devcode.WithRateLimiter(rate.NewLimiter(rate.Every(time.Second/20), 1)),
	)
}

func (accessor) ArchiveClient() *local.S3Client {
	return local.NewS3Client(cmp.Or(os.Getenv("ROTABLES_ARCHIVE_DIR"), "archive"))
}

func (accessor) ArchiveBucket() string {
	return cmp.Or(os.Getenv("ROTABLES_ARCHIVE_BUCKET"), "rotables_reports")
}
