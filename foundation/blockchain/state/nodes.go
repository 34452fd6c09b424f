package state

import "github.com/ardanlabs/powchain/foundation/blockchain/peer"

// RegisterNodes adds the hosts of the specified addresses to the set of known
// peers. Every address is parsed before any is added, so a malformed address
// leaves the set unchanged.
func (s *State) RegisterNodes(addresses []string) error {
	hosts := make([]string, len(addresses))
	for i, address := range addresses {
		host, err := peer.ParseHost(address)
		if err != nil {
			return err
		}
		hosts[i] = host
	}

	for _, host := range hosts {
		if s.knownPeers.Add(peer.New(host)) {
			s.evHandler("state: RegisterNodes: added peer[%s]", host)
		}
	}

	return nil
}
