// Package discovery fuses observations from multiple network discovery
// protocols (link-layer neighbour tables, active port scans, multicast
// service discovery, passive packet capture) into a single continuously
// updated view of a local network's devices.
//
// # Architecture
//
// The package is built around these core components:
//
//   - Observation: an immutable report from one source at one instant.
//   - Correlator: single-owner keyed device store; merges Observations
//     into canonical DeviceRecords under its own mutex.
//   - classify.Classifier: pure rule-based OS and usage-category inference,
//     invoked by the Correlator after every merge.
//   - Engine: the Orchestrator; drives Source Drivers through a three-phase
//     state machine and feeds their Observations to the Correlator.
//   - EventBus: broadcasts scan lifecycle and device events to observers
//     with bounded, drop-oldest-on-overflow subscriber queues.
//
// # Basic usage
//
//	iface, _ := netutil.SelectPrimary(mustEnumerate())
//	cidr, _ := netutil.ParseCIDR("192.168.1.0/24")
//
//	engine, err := discovery.NewEngine(
//	    discovery.Config{CIDR: cidr, Iface: iface, ScanLevel: discovery.ScanStandard},
//	    discovery.WithOUIRegistry(ouiReg),
//	    discovery.WithPhase0Drivers(mdnsDriver, ssdpDriver),
//	    discovery.WithPhase1Drivers(arpDriver, ndpDriver),
//	)
//	if err != nil {
//	    panic(err)
//	}
//
//	sub := engine.Events().Subscribe()
//	go func() {
//	    for evt := range sub.Events() {
//	        if evt.Kind == discovery.EventDeviceDiscovered {
//	            fmt.Println(evt.Record.Hostname, evt.Record.Manufacturer)
//	        }
//	    }
//	}()
//	_ = engine.Run(context.Background())
//
// # API
//
// As long as the package is in early development (pre-v1.0.0), be aware
// the API may change without a major version bump.
package discovery
