// Command hrpulse builds the employee attrition dashboard from an HR CSV
// export and prints it, renders its charts, or serves it over HTTP.
package main

func main() {
	Execute()
}
