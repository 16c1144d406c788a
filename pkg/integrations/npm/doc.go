// Package npm implements the npm registry wire contract.
//
// GET <registry>/<name> returns the packument:
//
//	{
//	  "name": "express",
//	  "dist-tags": {"latest": "4.21.2", "next": "5.0.0-beta.3"},
//	  "versions": {"4.21.2": {"name": "express", "version": "4.21.2", "dependencies": {...}}}
//	}
//
// [Client.FetchPackument] decodes it into a [deps.Packument]. Loosely typed
// manifest fields (license, deprecated) are normalized to strings. Scoped
// names are sent as "@scope%2fname".
//
//	client := npm.NewClient(httputil.NewHTTPTransport(30*time.Second, nil), npm.DefaultRegistry, 3)
//	p, err := client.FetchPackument(ctx, "@types/node")
package npm
