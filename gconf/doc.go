/*
Package gconf implements a configuration store intended to be used as a
per engine, in-database configuration.

Configuration is loaded from the options document when the engine is
initialized, validated and saved under a key owned by the package that
declares it. Handlers read it back from the same store they operate on, so
that a configuration change is subject to the same atomic writes as any other
state.
*/
package gconf
