// Package ssh moves commands and files to the cluster proxy node.
//
// Two transports implement [Transport]. [ShellTransport] drives the local
// ssh, rsync and scp binaries, which is what operators usually have set up
// (agent, known hosts, jump hosts). [NativeTransport] speaks SSH directly
// through golang.org/x/crypto/ssh for hosts where those binaries are not
// available.
package ssh
