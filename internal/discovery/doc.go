// Package discovery finds and advertises listing servers over mDNS.
//
// Listing servers register themselves with the "_treebrowse._tcp" service
// type. The TXT record carries the endpoint path ("path=/listing") and the
// server version, so a browser can build the listing URL without any
// configuration.
//
// # Usage Example
//
//	services, err := discovery.ScanForServices(5 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range services {
//	    fmt.Println(s.Instance, s.ListingURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Browser and server must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
