// Package config handles loading and validating litesql configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (LITESQL_* pattern)
//   - Validation of required fields
//   - Default value handling
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("configs/litesql.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Database.Path)
package config
