// Package http exposes the public read API and the admin API over a chi router.
// Admin routes trust the role forwarded by the upstream gate in the X-CMS-Role
// header; public routes take no role.
package http
