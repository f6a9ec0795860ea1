// Package config provides configuration parsing for the devflow server.
//
// The configuration is stored in devflow.yaml. Every key is optional;
// missing keys keep the defaults from New.
//
// # Configuration File Structure
//
//	server:
//	  addr: ":3000"
//	  read_timeout: 15s
//	  shutdown_timeout: 10s
//	search:
//	  route: /
//	  key: query
//	  debounce: 500ms
//	questions:
//	  source: s3          # embedded | s3
//	  bucket: devflow-data
//	  key: questions.json
//	  region: us-east-1
//	  endpoint: http://localhost:9000
//	  path_style: true
//	  ttl: 5m
//	log:
//	  level: info         # debug | info | warn | error
//	  format: text        # text | json
//	metrics:
//	  enabled: true
//	  path: /metrics
//	  namespace: devflow
//	tracing:
//	  tracer_name: devflow
//
// DEVFLOW_ADDR, DEVFLOW_LOG_LEVEL and DEVFLOW_LOG_FORMAT override the file.
//
// # Usage
//
//	cfg, err := config.LoadFromDir(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyEnv(os.LookupEnv)
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
