// Copyright 2026 The mplsliveness Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package liveness

import (
	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
)

var (
	LayerTypeLiveness = gopacket.RegisterLayerType(
		1700,
		gopacket.LayerTypeMetadata{
			Name:    "MPLSLiveness",
			Decoder: gopacket.DecodeFunc(decodeLiveness),
		},
	)
	LayerClassLiveness gopacket.LayerClass = LayerTypeLiveness
)

func init() {
	layers.RegisterUDPPortLayerType(layers.UDPPort(UDPPort), LayerTypeLiveness)
}
