package main

import (
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/skip2/go-qrcode"
)

// lanURL адрес, по которому до сервера достучится телефон из той же сети.
// беру первый не-loopback IPv4.
func lanURL(addr net.Addr) string {
	port := 0
	if tcpAddr, ok := addr.(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}

	host := "localhost"
	if ip := firstLANAddress(); ip != nil {
		host = ip.String()
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

func firstLANAddress() net.IP {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() || ipNet.IP.IsLinkLocalUnicast() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4
		}
	}
	return nil
}

func printQR(w io.Writer, addr net.Addr) error {
	url := lanURL(addr)
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n", q.ToSmallString(false), url)
	return err
}
