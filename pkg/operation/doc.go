/*
Package operation drives the external obfuscator over files and directory trees.

	+--------------+
	|  Obfuscator  |  ObfuscateFile / ObfuscateDirectory / Configure
	+------+-------+
	       |
	+------+-------+      +------------+
	|    walker    +----->+ Classifier |
	+------+-------+      +------------+
	       |
	+------+-------+      +------------+
	|  invocation  +----->+   Runner   |
	+--------------+      +------------+

🔄 Flow:
1. The source is validated (file readable, directory exists)
2. A walk creates the target directory before looking at any entry
3. Subdirectories are mirrored when the walk is recursive
4. Files whose content type is allowed are handed to the Runner

⚡ Failure policy:
- The first failure aborts the call, unless ContinueOnError is configured,
  in which case all failures are joined and returned at the end
- Already processed files are left in place
- Every error is a *PathError wrapping one of the Err* kinds

🔍 Example:

	runner, _ := process.NewExecRunner(tool.Entrypoint())
	obf, err := operation.New(ctx, operation.Options{Runner: runner})
	if err != nil {
		return err
	}
	obf.Configure(ctx, config.Update{ObfuscationOptions: config.Strings("no-strip-indentation")})
	if err := obf.ObfuscateDirectory(ctx, "src", "dist", true); err != nil {
		return err
	}
*/
package operation
