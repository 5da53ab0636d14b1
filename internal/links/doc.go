// Package links rewrites clip URLs onto canonical CDN hosts and classifies
// whether a remote clip is still reachable.
package links
