// Package scripts fetches the source files named in the configuration,
// indexes the callables they expose and executes them on demand.  Fetching
// goes through viant/afs so locations may be http(s) URLs, cloud storage URLs
// or local paths.  Execution is delegated to an Invoker; the default spawns
// the script's interpreter with JSON arguments on stdin.
package scripts
