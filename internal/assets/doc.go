// Package assets provides the stylesheets ("themes") used by HTML previews.
//
// # Loader Architecture
//
//	ThemeLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in themes compiled into the binary
//	    ├── FilesystemLoader  - {name}.css files in a user directory
//	    └── Resolver          - user directory first, then built-in
//
// The built-in themes are "default" and "dark". The name "none" selects no
// theme at all.
//
// # Security
//
// Theme names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within its
// directory.
package assets
