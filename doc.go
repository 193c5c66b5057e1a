// Package wpfs is a typed facade over a WordPress installation's filesystem.
//
// Every operation is delegated to a host: the filesystem object ([Host]) and
// the utility functions around it ([Runtime]). Hosts are registered by
// FS_METHOD name; the drivers live in their own packages:
//
//   - Local disk, "direct" (github.com/gobeaver/wpfs/driver/local)
//   - In-memory, "memory" (github.com/gobeaver/wpfs/driver/memory)
//   - SSH/SFTP, "ssh2" (github.com/gobeaver/wpfs/driver/sftp)
//
// # Adapters
//
// Operations are split over five adapter kinds:
//
//   - [Reader]: paths, contents, metadata and listings
//   - [Action]: writes, copies, moves, deletes, uploads and downloads
//   - [Auditor]: predicates and integrity checks
//   - [Manager]: ownership, permissions and cache invalidation
//   - [Advanced]: composite helpers such as AtomicWrite, Hash and ReadJSON
//
// A [Factory] builds each kind as base -> [hookable] -> [guarded], depending
// on the current [Settings], and keeps one instance per combination.
//
// # Basic Usage
//
//	import _ "github.com/gobeaver/wpfs/driver/local"
//
//	f, err := wpfs.New(&wpfs.Config{Method: "direct", Abspath: "/var/www/html"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//
//	reader, _ := f.Reader()
//	contents, err := reader.GetContents(ctx, "/var/www/html/wp-config.php")
//
//	action, _ := f.Action()
//	err = action.PutContents(ctx, "/var/www/html/robots.txt", "User-agent: *\n", 0)
//
// # Guarded Mode
//
// With guarded mode on, unsuccessful results become *[FSError] values that
// unwrap to [ErrNotExist], [ErrPermission] or [ErrFailed]:
//
//	wpfs.SetGuarded(true)
//	_, err := reader.GetContents(ctx, "/missing.txt")
//	if wpfs.IsNotExist(err) {
//	    // ...
//	}
//
// # Hooks
//
// With hookable mode on, each call dispatches "wpfs_before_<op>_action",
// passes a successful result through "wpfs_<op>_filter" when the operation
// is filtered, and dispatches "wpfs_after_<op>_action":
//
//	wpfs.AddFilter(wpfs.OpGetContents.Filter(), func(v any, args ...any) any {
//	    return strings.ToUpper(v.(string))
//	}, wpfs.DefaultPriority)
//
// # Facade
//
// [Facade.Call] dispatches by method name, in snake_case or camelCase, to
// the first adapter kind that declares it:
//
//	out, err := wpfs.NewFacade(f).Call(ctx, "get_contents", "/var/www/html/index.php")
//
// # Builder
//
// [From] and [Create] start a [FileBuilder] for fluent edits of one file:
//
//	b, err := wpfs.From(ctx, host, path)
//	if err != nil {
//	    return err
//	}
//	err = b.Replace("old", "new").
//	    Backup(ctx, "").
//	    Save(ctx)
//
// # Configuration
//
// [GetConfig] reads the WordPress constants (ABSPATH, FS_METHOD, FTP_*,
// FS_CHMOD_*, WP_*_DIR) plus the WPFS_* settings from the environment,
// under the BEAVER_ prefix: BEAVER_FS_METHOD, BEAVER_ABSPATH and so on.
// [WithPrefix] reads them under another prefix.
package wpfs
