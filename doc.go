// Package utils some helpers shared by twon's packages
//
// # Modules
//
//   - `crypto/threshold/twon`: (2, n) threshold secret sharing
//   - `sharefile`: read and write share files, encode secrets
//   - `cmd`: `twon split` and `twon recover` command line tools
//   - `config`: load settings from file and flags
//   - `log`: enhanced zap logger
//   - `json`: json with comments
//   - `fs.go`: some tools to deal with files
//   - `terminal.go`: read secret from terminal
//   - `utils.go`: some useful tools
package utils
