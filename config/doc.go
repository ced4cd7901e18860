// Package config loads the screener configuration with Viper.
//
// Values come, in increasing priority, from built-in defaults, a YAML file
// and SCREENER_ prefixed environment variables (SCREENER_SERVER_PORT for
// server.port).
//
//	cfg, err := config.LoadConfig("./config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Watch reloads the file on change and hands the new value to a callback:
//
//	config.Watch(func(c *config.Config) {
//	    logger.Infof(ctx, "config reloaded, run mode %s", c.RunMode)
//	})
package config
