package config

import (
	"fmt"
	"os"
	"time"

	"github.com/gotify/configor"

	"leavedesk/internal/domain/leave"
)

type Configuration struct {
	App struct {
		Addr        string `default:":8080" env:"APP_ADDR"`
		Environment string `default:"development" env:"APP_ENV"`
	}
	Backend struct {
		BaseURL        string `default:"http://127.0.0.1:8081" env:"BACKEND_URL"`
		TimeoutSeconds int    `default:"10" env:"BACKEND_TIMEOUT_SECONDS"`
	}
	Schedule struct {
		WorkHoursPerDay     float64 `default:"8" env:"WORK_HOURS_PER_DAY"`
		WorkdayStartMinutes int     `default:"390" env:"WORKDAY_START_MINUTES"`
		WorkdayEndMinutes   int     `default:"900" env:"WORKDAY_END_MINUTES"`
		DefaultStartTime    string  `default:"00:00" env:"DEFAULT_START_TIME"`
		DefaultEndTime      string  `default:"23:59" env:"DEFAULT_END_TIME"`
	}
	Holidays struct {
		RefreshMinutes int `default:"15" env:"HOLIDAY_REFRESH_MINUTES"`
	}
	Metrics struct {
		Enabled *bool `default:"true" env:"METRICS_ENABLED"`
	}
}

func configFiles() []string {
	if _, err := os.Stat("config.yml"); err != nil {
		return nil
	}
	return []string{"config.yml"}
}

func Load() (*Configuration, error) {
	conf := new(Configuration)
	if err := configor.New(&configor.Config{}).Load(conf, configFiles()...); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Configuration) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if c.Backend.TimeoutSeconds <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT_SECONDS must be positive")
	}
	if c.Schedule.WorkHoursPerDay <= 0 {
		return fmt.Errorf("WORK_HOURS_PER_DAY must be positive")
	}
	if c.Schedule.WorkdayStartMinutes < 0 || c.Schedule.WorkdayEndMinutes > 24*60 {
		return fmt.Errorf("workday window must fall within a day")
	}
	if c.Schedule.WorkdayStartMinutes >= c.Schedule.WorkdayEndMinutes {
		return fmt.Errorf("workday start must precede workday end")
	}
	if c.Holidays.RefreshMinutes < 0 {
		return fmt.Errorf("HOLIDAY_REFRESH_MINUTES must not be negative")
	}
	return nil
}

// LeaveSchedule materializes the working-time policy the engine runs with.
func (c *Configuration) LeaveSchedule() leave.Schedule {
	return leave.Schedule{
		WorkHoursPerDay:     c.Schedule.WorkHoursPerDay,
		WorkdayStartMinutes: c.Schedule.WorkdayStartMinutes,
		WorkdayEndMinutes:   c.Schedule.WorkdayEndMinutes,
		DefaultStartTime:    c.Schedule.DefaultStartTime,
		DefaultEndTime:      c.Schedule.DefaultEndTime,
	}
}

func (c *Configuration) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

func (c *Configuration) HolidayRefreshInterval() time.Duration {
	return time.Duration(c.Holidays.RefreshMinutes) * time.Minute
}

func (c *Configuration) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}
