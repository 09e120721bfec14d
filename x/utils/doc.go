// Package utils provides decorators shared by all treasury handlers:
// logging, panic recovery and savepoints.
package utils
