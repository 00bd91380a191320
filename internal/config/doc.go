// Package config loads toaster.json and toaster.yaml files.
//
// A file configures the notifier, the playground server and the CLI
// logger. Durations are written as Go duration strings; "persistent"
// disables auto-dismissal. Missing fields take their defaults.
//
// # Configuration File Structure
//
//	{
//	  "toast": {
//	    "maxVisible": 3,
//	    "position": "bottom-right",
//	    "duration": "4s",
//	    "maxActive": 10,
//	    "style": {
//	      "gap": 12,
//	      "successColor": "#16a34a"
//	    }
//	  },
//	  "serve": {
//	    "addr": "localhost:3000",
//	    "metricsPath": "/metrics"
//	  },
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  }
//	}
//
// The same structure is accepted as YAML.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	tc, _ := cfg.ToastConfig()
package config
