// Package expr provides CEL (Common Expression Language) environments for
// querying rule tables.
//
// Expressions have access to variables:
//   - `key` (string): The canonical rule identifier
//   - `plugin` (string): The plugin namespace, "" for core rules
//   - `name` (string): The rule identifier without its namespace
//   - `severity` (string): One of "off", "warn", "error"
//   - `level` (int): The numeric severity, 0-2
//   - `options` (list): The rule's options
//
// Custom functions keyNamespace(string) and keyName(string) split any rule
// identifier.
package expr
