package config

import (
	"encoding/binary"
	"fmt"
	"net"
)

// CIDRSubnet calculates a subnet address given a network address, a netmask
// size increase, and a subnet number, like Terraform's cidrsubnet.
//
// Only IPv4 prefixes are supported.
func CIDRSubnet(prefix string, newbits int, netnum int) (string, error) {
	_, network, err := net.ParseCIDR(prefix)
	if err != nil {
		return "", fmt.Errorf("invalid CIDR prefix: %w", err)
	}

	ip := network.IP.To4()
	if ip == nil {
		return "", fmt.Errorf("only IPv4 addresses are supported, got %s", prefix)
	}

	maskSize, totalBits := network.Mask.Size()
	newMaskSize := maskSize + newbits
	if newbits < 0 || newMaskSize > totalBits {
		return "", fmt.Errorf("prefix extension of %d bits is invalid for %s", newbits, prefix)
	}

	maxSubnets := 1 << newbits
	if netnum < 0 || netnum >= maxSubnets {
		return "", fmt.Errorf("subnet number %d exceeds max subnets %d", netnum, maxSubnets)
	}

	subnetSize := uint32(1) << (totalBits - newMaskSize)
	// #nosec G115
	base := binary.BigEndian.Uint32(ip) + uint32(netnum)*subnetSize

	out := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(out, base)
	return fmt.Sprintf("%s/%d", out, newMaskSize), nil
}

// SubnetCIDRs returns the public and private /24 subnets for each zone.
// Public subnets take indexes 0..zones-1 and private subnets follow them.
func (c *InfraConfig) SubnetCIDRs() (public, private []string, err error) {
	_, network, err := net.ParseCIDR(c.CIDR)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid CIDR prefix: %w", err)
	}
	ones, _ := network.Mask.Size()
	newbits := 24 - ones

	for i := range c.Zones {
		pub, err := CIDRSubnet(c.CIDR, newbits, i)
		if err != nil {
			return nil, nil, err
		}
		priv, err := CIDRSubnet(c.CIDR, newbits, c.Zones+i)
		if err != nil {
			return nil, nil, err
		}
		public = append(public, pub)
		private = append(private, priv)
	}
	return public, private, nil
}
