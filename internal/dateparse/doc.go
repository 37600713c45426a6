// Package dateparse parses free-text dates against user-defined calendars.
//
// A calendar is a list of named months with their lengths, an optional list
// of weekday names, the year length and the campaign's current year. From it
// a Parser derives month abbreviations and a fixed grammar of anchored,
// case-insensitive patterns grouped by precision:
//
//	exact       "3rd day of Harvest Moon, 3019", "Starday, Wintermarch 15, 3019"
//	month_year  "Harvest Moon 3019", "the month of Springtide, 3019"
//	year        "Year 3019", "during the year 3019"
//	season      "Early spring 3019", "winter 3019"
//	relative    "2 days after Battle of Hornburg", "during the Siege"
//	fuzzy       "around Harvest Moon 3019", "sometime in 3019"
//	range       "between Harvest Moon and Wintermarch 3019", "from 1st to 15th Summerday 3019"
//
// Results serialize to a flat mapping (ToJSON) that restores losslessly with
// FromJSON; ParsedDate also implements json.Unmarshaler with the same shape.
//
// The package does no I/O and keeps no global mutable state.
package dateparse
