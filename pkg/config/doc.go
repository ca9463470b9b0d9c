/*
Package config holds the run configuration of the obfuscator and loads it from disk.

	            +------------------+
	            | RunConfiguration |
	            +--------+---------+
	                     ^
	                     | Merge(allow, cfg, Update)
	      +--------------+--------------+
	      |              |              |
	+-----+----+   +-----+----+   +-----+----+
	|   YAML   |   |   JSON   |   |   HCL    |
	|  Parser  |   |  Parser  |   |  Parser  |
	+----------+   +----------+   +----------+

🎯 Purpose:
- Filters requested option names against the allow-list
- Merges partial updates into a new RunConfiguration value
- Parses configuration files, ignoring keys it does not know

🔄 Merge rules:
1. debug and continue_on_error only ever switch on
2. obfuscation_options, when present, are filtered and replace the previous list
3. allowed_mime_types replaces the previous list only when non-empty
4. ignore_patterns replaces when present, workers when positive

🔍 Example:

	upd, err := config.Load(ctx, ".obfrc.yaml")
	if err != nil {
		return err
	}
	cfg := config.Merge(config.DefaultAllowList, config.Default(), *upd)
*/
package config
