// Package errors provides structured, actionable error messages for the
// devflow command.
//
// Each registered error has a code (e.g., "E101") that maps to a short
// message, a longer explanation and, where one exists, a hint. Errors that
// refer to a file, such as a malformed devflow.yaml, carry the location
// and the surrounding lines.
//
// # Error Categories
//
//   - config: devflow.yaml and environment overrides
//   - storage: question dataset sources
//   - validation, submission: form engine outcomes surfaced by the CLI
//   - cli: command usage
//   - runtime: listening and shutdown
//
// # Usage
//
//	err := errors.New(errors.CodeConfigInvalid).
//	    WithLocationFromYAML(path, yamlErr).
//	    Wrap(yamlErr)
//
//	errors.PrintError(err)
//	// Output:
//	// ERROR E101: Invalid config file
//	//
//	//   devflow.yaml:3
//	//
//	//        1 │ server:
//	//        2 │   addr: ":3000"
//	//   →    3 │   read_timeout: soon
//	//
//	//   The config file is not valid YAML or contains unknown keys.
//
// Codes compare with errors.Is:
//
//	errors.Is(err, errors.New(errors.CodeConfigNotFound))
package errors
