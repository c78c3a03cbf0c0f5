// Package discovery announces and finds restbind API servers on the local
// network using mDNS/DNS-SD.
//
// Servers advertise the "_restbind._tcp" service with TXT records that
// carry the API base path and optional metadata. Clients browse for
// endpoints and turn them into base URLs for rest.New:
//
//	browser := discovery.NewBrowser(discovery.BrowserConfig{})
//	endpoints, err := browser.Browse(ctx)
//	if err != nil {
//	    return err
//	}
//	for ep := range endpoints {
//	    fmt.Println(ep.Instance, ep.BaseURL())
//	}
//
// Endpoints found on multiple interfaces are aggregated by instance name,
// so each service is reported once with all of its addresses.
package discovery
