// Command astrofiler manages an astrophotography capture archive: it records
// equipment and frames, queues raw capture files, and classifies them into
// the configured directory layout.
package main
