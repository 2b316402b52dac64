// Package sos contains the domain model of the SOS alerting pipeline:
// trigger metadata, location samples, address details, emergency-service
// points and matches, contacts, cycle statuses and the AlertCycle aggregate.
//
// The types here are plain data with no I/O. Variants that the surrounding
// layers used to express as loose maps (location success vs. error, address
// vs. lookup failure, match list vs. search status) are tagged explicitly so
// downstream code never has to guess at a payload's shape.
package sos
