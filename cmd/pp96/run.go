package main

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/filterwell/pp96/internal/logger"
	"github.com/filterwell/pp96/pkg/press"
	"github.com/filterwell/pp96/pkg/pwm"
)

// appConfig wraps the controller configuration with the bus settings the
// driver needs.
type appConfig struct {
	I2CBus  string       `mapstructure:"i2c_bus"`
	I2CAddr uint16       `mapstructure:"i2c_addr"`
	Press   press.Config `mapstructure:",squash"`
}

func loadConfig() (appConfig, error) {
	cfg := appConfig{
		I2CAddr: pwm.DefaultAddr,
		Press:   press.DefaultConfig(),
	}

	v := viper.New()
	if opts.Config != "" {
		v.SetConfigFile(opts.Config)
	} else {
		v.SetConfigName("pp96")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pp96")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.Config == "" && errors.As(err, &notFound) {
			// No config file is fine, everything has defaults.
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", v.ConfigFileUsed(), err)
	}
	return cfg, nil
}

// openDriver returns the live PCA9685 driver, or the dry-run driver when
// --dry-run is set or the host has no I2C bus.
func openDriver(cfg appConfig, log *zap.SugaredLogger) (pwm.Driver, error) {
	if opts.DryRun {
		return pwm.NewDryRun(log), nil
	}

	drv, err := pwm.NewPCA9685(cfg.I2CBus, cfg.I2CAddr)
	if errors.Is(err, pwm.ErrNoI2C) {
		log.Warnw("no i2c bus found, falling back to dry-run", "err", err)
		return pwm.NewDryRun(log), nil
	}
	if err != nil {
		return nil, err
	}
	return drv, nil
}

// withController initializes the device, runs fn, and always parks and
// releases the servos afterwards.
func withController(fn func(*press.Controller) error) error {
	log := logger.New(opts.Verbose)
	defer log.Sync()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	drv, err := openDriver(cfg, log)
	if err != nil {
		return err
	}
	defer drv.Close()

	ctrl, err := press.New(drv, cfg.Press, log)
	if err != nil {
		return fmt.Errorf("initialize controller: %w", err)
	}
	defer ctrl.Shutdown()

	if opts.Speed > 0 {
		ctrl.SetSpeed(opts.Speed)
	}

	return fn(ctrl)
}
