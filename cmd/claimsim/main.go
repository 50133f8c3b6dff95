// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// claimsim replays the heap claim policy against a recorded firmware
// memory map. When a machine boots with a surprising amount of heap (or
// none at all), record its map, bring the file home and replay it here
// with different quirk flags and image bounds instead of rebooting real
// hardware.

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/u-root/ofwboot/config"
	"github.com/u-root/ofwboot/pkg/heap"
	"github.com/u-root/ofwboot/pkg/ieee1275"
	"github.com/u-root/ofwboot/pkg/logger"
	"github.com/u-root/ofwboot/pkg/metric"
	"github.com/u-root/ofwboot/pkg/mm"
)

var (
	mapPath     = flag.String("map", "", "Recorded memory map (YAML)")
	imageStart  = flag.String("image-start", "0x0", "Load address of the bootloader image")
	imageEnd    = flag.String("image-end", "0x0", "End of the image plus module area")
	heapMax     = flag.String("heap-max", "0x40000000", "Platform heap size cap")
	staticBase  = flag.String("static-base", "0x0", "Static heap window base (with -force-claim)")
	staticLen   = flag.String("static-len", "0x0", "Static heap window length (with -force-claim)")
	noPre15M    = flag.Bool("no-pre15m", false, "Set the no-claim-below-1.5MiB quirk flag")
	forceClaim  = flag.Bool("force-claim", false, "Use the static heap window instead of the map")
	dumpMetrics = flag.Bool("metrics", false, "Dump metrics after the replay")

	log = logger.LogContainer.GetSimpleLogger()
)

func parseAddr(name, s string) uint64 {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		log.Fatalf("strconv.ParseUint(%s=%s): %v", name, s, err)
	}
	return v
}

func main() {
	flag.Parse()
	if *mapPath == "" && !*forceClaim {
		log.Fatal("please pass a recorded map with -map (or -force-claim)")
	}

	fw := &ieee1275.FakeClient{
		Flags: map[ieee1275.Flag]bool{
			ieee1275.FlagNoPre15MClaim: *noPre15M,
			ieee1275.FlagForceClaim:    *forceClaim,
		},
	}
	if *mapPath != "" {
		extents, err := loadMap(afero.NewOsFs(), *mapPath)
		if err != nil {
			log.Fatalf("loadMap: %v", err)
		}
		fw.Map = extents
	}

	claimer := &heap.Claimer{
		FW:       fw,
		Registry: &mm.Registry{},
		Caps: config.PlatformCaps{
			HeapMaxSize:    parseAddr("heap-max", *heapMax),
			StaticHeapBase: parseAddr("static-base", *staticBase),
			StaticHeapLen:  parseAddr("static-len", *staticLen),
		},
		ImageStart: parseAddr("image-start", *imageStart),
		ImageEnd:   parseAddr("image-end", *imageEnd),
	}

	if err := claimer.ClaimHeap(); err != nil {
		log.Fatalf("claim replay aborted: %v", err)
	}

	regions := claimer.Registry.Regions()
	fmt.Printf("%d regions, %s heap:\n", len(regions), humanize.IBytes(claimer.Registry.Total()))
	for _, r := range regions {
		fmt.Printf("  %#010x-%#010x %s\n", r.Addr, r.Addr+r.Length, humanize.IBytes(r.Length))
	}

	if *dumpMetrics {
		metric.WriteMetrics(os.Stdout)
	}
}
