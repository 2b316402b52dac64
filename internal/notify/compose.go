// Package notify renders and delivers SOS alert messages: a deterministic
// composer producing the alert body, and a dispatcher sending it over an
// SMTP-style transport.
package notify

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dhivyapriya/sos-guardian/internal/domain/sos"
)

// Subject renders the alert subject line for the cycle's user.
func Subject(cycle *sos.AlertCycle) string {
	name := cycle.UserName
	if name == "" {
		name = "User"
	}

	return fmt.Sprintf("EMERGENCY ALERT from %s!", name)
}

// Compose renders the complete alert body from the cycle. It is a pure
// function: no I/O, no clock, byte-identical output for identical input.
// Every optional piece of the cycle has an explicit textual fallback, so
// composition cannot fail on partial data.
func Compose(cycle *sos.AlertCycle) string {
	var b strings.Builder

	writeHeader(&b, cycle)
	writeLocationSection(&b, cycle)
	writeServicesSection(&b, cycle)
	writeTrailer(&b, cycle)

	return b.String()
}

func writeHeader(b *strings.Builder, cycle *sos.AlertCycle) {
	name := cycle.UserName
	if name == "" {
		name = "User"
	}

	email := cycle.UserEmail
	if email == "" {
		email = sos.FieldUnknown
	}

	fmt.Fprintf(b, "URGENT: SOS Alert from %s (%s)!\n\n", name, email)
	b.WriteString("Please check on them immediately.\n")
	fmt.Fprintf(b, "Activated via %s.\n\n", cycle.Trigger.Describe())
}

func writeLocationSection(b *strings.Builder, cycle *sos.AlertCycle) {
	b.WriteString("--- Last Known Location Details ---\n")

	location := cycle.Location

	switch {
	case location == nil:
		b.WriteString("Location information not available.\n")
	case location.Failed():
		fmt.Fprintf(b, "Could not retrieve initial location details: %s\n", location.Err.Error())
		fmt.Fprintf(b, "Source: %s\n", location.Err.Source)
	default:
		fmt.Fprintf(b, "Source: %s\n", location.Source)
		fmt.Fprintf(b, "Coordinates: Latitude %s, Longitude %s\n",
			sos.FormatCoordinate(location.Latitude), sos.FormatCoordinate(location.Longitude))
		fmt.Fprintf(b, "Accuracy: %s meters\n", location.AccuracyText())
		fmt.Fprintf(b, "View Location on Map: %s\n", sos.MapsLink(location.Latitude, location.Longitude))
		writeAddressSubsection(b, cycle)
	}

	b.WriteString("---------------------------------------\n\n")
}

// writeAddressSubsection applies the priority order: structured address,
// then lookup error, then lookup info, then the explicit fallback line.
func writeAddressSubsection(b *strings.Builder, cycle *sos.AlertCycle) {
	b.WriteString("\nAddress Details (if available):\n")

	switch {
	case cycle.Address != nil && sos.Known(cycle.Address.FullAddress):
		address := cycle.Address

		fmt.Fprintf(b, "  Full Address: %s\n", address.FullAddress)
		writeComponent(b, "Street/Road", address.Street)
		writeComponent(b, "House/Building", address.HouseNumber)
		writeComponent(b, "Neighborhood", address.Neighbourhood)
		writeComponent(b, "Suburb", address.Suburb)
		writeComponent(b, "City", address.City)
		writeComponent(b, "District", address.District)
		writeComponent(b, "State", address.State)
		writeComponent(b, "Postal Code", address.PostalCode)
		writeComponent(b, "Country", address.Country)
	case cycle.AddressErr != nil:
		fmt.Fprintf(b, "  Address Lookup Error: %s\n", cycle.AddressErr.Error())
	case cycle.AddressInfo != "":
		fmt.Fprintf(b, "  Address Lookup Info: %s\n", cycle.AddressInfo)
	default:
		b.WriteString("  Detailed address information not available.\n")
	}
}

func writeComponent(b *strings.Builder, label, value string) {
	if sos.Known(value) {
		fmt.Fprintf(b, "  %s: %s\n", label, value)
	}
}

func writeServicesSection(b *strings.Builder, cycle *sos.AlertCycle) {
	b.WriteString("--- Nearest Emergency Services (if available) ---\n")

	wrote := writeServiceResult(b, "Nearest Hospitals", cycle.Hospitals)
	wrote = writeServiceResult(b, "Nearest Police Stations", cycle.Police) || wrote

	if !wrote {
		b.WriteString("No nearest emergency service data available.\n")
	}

	b.WriteString("-------------------------------------------\n\n")
}

// writeServiceResult renders one category's outcome and reports whether
// it produced any line at all.
func writeServiceResult(b *strings.Builder, heading string, result *sos.ServiceResult) bool {
	if result == nil {
		return false
	}

	if result.Status != sos.SearchOK {
		fmt.Fprintf(b, "%s: %s\n", heading, result.Message)

		return true
	}

	fmt.Fprintf(b, "%s:\n", heading)

	for _, match := range result.Matches {
		fmt.Fprintf(b, "- %s (%s km)", match.Name, FormatDistanceKm(match.DistanceKm))

		if match.Address != "" {
			fmt.Fprintf(b, ", Address: %s", match.Address)
		}

		fmt.Fprintf(b, " [Map: %s]\n", sos.MapsLink(match.Latitude, match.Longitude))
	}

	return true
}

func writeTrailer(b *strings.Builder, cycle *sos.AlertCycle) {
	b.WriteString("This is an automated alert from the SOS Guardian safety app.\n")
	fmt.Fprintf(b, "Timestamp: %s\n", cycle.StartedAt.Format("2006-01-02 15:04:05"))
}

// FormatDistanceKm rounds a distance to two decimals and renders it
// without trailing zeros, so 3.2 prints as "3.2", not "3.20".
func FormatDistanceKm(km float64) string {
	return strconv.FormatFloat(math.Round(km*100)/100, 'f', -1, 64)
}
