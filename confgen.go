// Package confgen renders configuration files from templates.
package confgen

// Version is the current confgen release.
const Version = "0.1.0"
