// Command domainctl is the operator CLI for tenants and custom domains.
package main

func main() {
	Execute()
}
