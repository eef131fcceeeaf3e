// Package config loads the description of an existing cluster from a
// muchos home directory.
//
// A home directory holds conf/muchos.yaml (options grouped in sections,
// node placement, tarball source), conf/hosts/<cluster> (host addresses)
// and conf/checksums (software checksums). [Config] exposes the lookups
// the inventory renderer and the cluster actions need: option values,
// service placement, proxy address, versions and checksums.
package config
