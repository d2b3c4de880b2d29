// Package cdnify rewrites references to local assets in generated HTML so that
// they point at a CDN.
//
// A reference is rewritten when it has an allowed extension and names a file
// that exists relative to the document's output path. The file's canonical
// path is matched against a table of output roots (images, then assets), and
// the part below the matching root is appended to the CDN's base URL and the
// root's CDN prefix:
//
//	/out/blog/post1/index.html: <img src="../../np_images/photo.jpg">
//	  becomes <img src="https://cdn.example.com/images/photo.jpg">
//
// Everything else (external URLs, missing files, other extensions) is left as
// it was, so rewriting an already-rewritten document changes nothing.
package cdnify
